// Package alerts evaluates threshold rules against per-center metrics
// and delivers webhook notifications when rules fire or resolve. It
// turns the dashboard's passive warning cards into push notifications
// for the centers that need attention.
package alerts
