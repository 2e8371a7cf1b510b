// Package transport maintains the MQTT session with the vendor cloud
// broker and speaks its JSON command envelope.
//
// A Session wraps paho.mqtt.golang with connection management, tracked
// subscriptions that survive reconnects, and panic-isolated message
// handlers. Authentication is derived from the cloud JWT: the username
// is "app/<token>" and the password is the token itself, so a session
// is only ever created after a successful cloud login.
//
// Outbound point writes are wrapped in the vendor command envelope
// (cmd 99) and published fire-and-forget to the gateway's download
// topic. Each envelope carries a session-scoped monotonically
// increasing serial.
package transport
