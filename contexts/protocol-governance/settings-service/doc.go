// Package settingsservice owns the governance parameter registry inside the
// protocol-governance context.
//
// The registry is read freely but written only under governance execution
// authority, so every parameter change in production traces back to an
// executed motion.
package settingsservice
