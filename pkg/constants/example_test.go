package constants_test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/agentstation/bookmap/pkg/constants"
)

// Example_timeouts demonstrates timeout constants
func Example_timeouts() {
	client := &http.Client{
		Timeout: constants.DefaultHTTPTimeout,
	}
	fmt.Printf("HTTP timeout: %v\n", client.Timeout)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	deadline, _ := ctx.Deadline()
	fmt.Printf("Has deadline: %v\n", !deadline.IsZero())
	// Output:
	// HTTP timeout: 10s
	// Has deadline: true
}

// Example_polling demonstrates the change feed defaults
func Example_polling() {
	fmt.Printf("Interval: %v\n", constants.DefaultPollInterval)
	fmt.Printf("Limit: %d\n", constants.DefaultFeedLimit)
	fmt.Printf("Cooldown: %v\n", constants.DefaultNotifyCooldown)
	// Output:
	// Interval: 10s
	// Limit: 5
	// Cooldown: 1m0s
}

// Example_retention demonstrates notification retention limits
func Example_retention() {
	fmt.Printf("Max records: %d\n", constants.MaxNotifications)
	fmt.Printf("Max age: %v\n", constants.NotificationMaxAge)
	fmt.Printf("Within age: %v\n", 6*24*time.Hour < constants.NotificationMaxAge)
	// Output:
	// Max records: 50
	// Max age: 168h0m0s
	// Within age: true
}
