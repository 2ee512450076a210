// Package ws streams the latest dashboard report to browsers over WebSocket.
//
// Every message is {"event": "report", "data": <Report>}. A client gets the
// current report on connect, then one message per broadcast interval and one
// whenever a refresh publishes a new report. Nothing is sent before the
// first report exists.
package ws
