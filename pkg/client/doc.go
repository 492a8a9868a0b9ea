// Package client provides a Go SDK for the scheduler's control API.
//
// It never drives scheduler execution itself — every mutating method
// reaches the same SchedulerQueue a running handler would use — and
// pairs with an optional WebSocket client for real-time lifecycle events.
//
// # Basic Usage
//
//	c, err := client.New("http://localhost:8080")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := c.TriggerEvent(ctx, "deploy"); err != nil {
//	    log.Fatal(err)
//	}
//
// # WebSocket Events
//
//	err := c.ConnectWebSocket(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.CloseWebSocket()
//
//	for event := range c.Events() {
//	    fmt.Printf("Event: %s\n", event.Type)
//	}
//
// # Configuration
//
// The client supports functional options for configuration:
//
//	c, err := client.New("http://localhost:8080",
//	    client.WithAPIKey("your-api-key"),
//	    client.WithTimeout(30 * time.Second),
//	)
package client
