// Package alerts turns dashboard metrics into prioritised alerts and
// delivers alert state changes to webhooks (Teams, Slack or generic HTTP).
//
// Evaluate is pure and returns alerts in rule order. An empty result means
// nothing needs attention. Notifier tracks which rules are firing across
// refreshes and sends fire/resolve notifications.
package alerts
