// Package mail renders and delivers the transactional emails of the
// application. Delivery goes through an SMTP relay with STARTTLS, or through
// a log-only sender when no relay is configured.
package mail
