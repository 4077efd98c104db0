// Package descriptor defines the field descriptors that drive form
// generation. A descriptor names the FormState key (`param`), the control kind
// (`type`) and an optional maximum length (`strSize`). Descriptors are
// immutable once loaded; Validate reports duplicate or empty keys before a
// form is built from them.
package descriptor
