// Package value defines the dynamic value model exchanged between cells,
// runtime backends, and any embedding host.
//
// The representable set is deliberately closed: null, bool, number, string,
// array, and object, expressed as cty values. Two additional opaque marker
// kinds (stream references and function references) exist only inside the
// engine; they have no cross-boundary representation and every marshaling
// path rejects them with a typed error instead of coercing.
package value
