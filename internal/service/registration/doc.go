// Package registration implements email registration and removal.
//
// Registering an email assigns it a tracking pixel and rewrites each outgoing
// link to a tracked redirect. An email may already exist when it is
// registered: the pixel can fire before the sender reports the message. In
// that case only the descriptive fields that are still empty are filled in,
// so the first registration to supply a value wins.
package registration
