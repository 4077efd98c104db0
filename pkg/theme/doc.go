// Package theme resolves a go-theme selection into the values the form and
// preview renderers consume: attribute defaults, style overrides, template
// overrides and CSS custom properties.
//
// Recognised tokens:
//
//	text.color, text.size            TextView defaults
//	button.background, button.color  Button defaults
//	button.caption                   Button caption fallback
//	image.default                    fallback image (or asset "image.default")
//	image.width, image.height        ImageView size fallbacks
//	form.submit                      submit button label
//	style.<category>.<property>      style override, e.g. style.textview.fontWeight
//
// Templates keyed richcard.form and richcard.field replace the form builder
// templates.
package theme
