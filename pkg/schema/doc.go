// Package schema declares the attributes a prediction request carries.
//
// Each attribute is either numeric (with min/max/step) or categorical (with a
// fixed list of codes). The table drives three things: the defaults the form
// store starts from, the widgets renderers draw, and the coercion applied when
// a widget reports a new value. The built-in table ships as student.yaml;
// adding a field only requires extending that file.
package schema
