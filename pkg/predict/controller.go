package predict

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Predictor issues one prediction request.
type Predictor interface {
	Predict(ctx context.Context, payload any) (Result, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, payload any) (Result, error)

// Predict implements Predictor.
func (fn PredictorFunc) Predict(ctx context.Context, payload any) (Result, error) {
	return fn(ctx, payload)
}

// Controller turns form snapshots into submission state transitions. At most
// one request is in flight; a submit while pending is dropped.
type Controller struct {
	predictor Predictor
	logger    *zap.Logger

	mu        sync.Mutex
	state     State
	observers []func(State)
}

// NewController wires a controller to the given predictor.
func NewController(p Predictor, opts ...ControllerOption) *Controller {
	c := &Controller{
		predictor: p,
		logger:    zap.NewNop(),
		state:     Idle(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive every state transition.
func (c *Controller) Subscribe(fn func(State)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Submit sends payload to the predictor and blocks until the request
// resolves. It returns the resulting state and true, or the current state and
// false when another submission is already pending. The request ignores
// cancellation of ctx so an in-flight submission always resolves.
func (c *Controller) Submit(ctx context.Context, payload any) (State, bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	pending, ok := c.apply(SubmitRequested{})
	if !ok {
		c.logger.Debug("submit ignored while pending")
		return pending, false
	}

	if c.predictor == nil {
		final, _ := c.apply(ResponseFailed{Message: DefaultFailureMessage})
		return final, true
	}

	start := time.Now()
	result, err := c.predictor.Predict(context.WithoutCancel(ctx), payload)

	var final State
	if err != nil {
		msg := FailureMessage(err)
		c.logger.Info("prediction failed",
			zap.String("message", msg),
			zap.Duration("duration", time.Since(start)),
		)
		final, _ = c.apply(ResponseFailed{Message: msg, Fields: FailureFields(err)})
	} else {
		c.logger.Info("prediction succeeded",
			zap.Float64("exam_score", result.ExamScore),
			zap.Duration("duration", time.Since(start)),
		)
		final, _ = c.apply(ResponseReceived{Result: result})
	}
	return final, true
}

func (c *Controller) apply(ev Event) (State, bool) {
	c.mu.Lock()
	next, changed := Reduce(c.state, ev)
	if !changed {
		c.mu.Unlock()
		return next, false
	}
	c.state = next
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
	return next, true
}
