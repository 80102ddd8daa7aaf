// Package auth implements sign-in, registration and sign-out on top of the
// API client and the session store. Operations report a Result instead of an
// error so views can render the message directly.
package auth
