package common

import "time"

// A restriction means that only the specified number of requests
// are allowed within a sliding window of the specified duration
type Restriction struct {
	Requests int
	Duration time.Duration
}

// Analyse the recent history of requests and find out
// if one more request at the current time should be allowed or not
func (rest *Restriction) Analyse(history []time.Time) Analysis {

	// Count the requests that have been served within my window.
	// Start counting from the end.
	// If one request is too old, the rest will be too
	currentTime := time.Now()
	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		if currentTime.Sub(history[i]) > rest.Duration {
			break
		}
		count++
	}
	if count < rest.Requests {
		return Analysis{allowed: true}
	}

	// A restriction that allows no requests at all has no history
	// entry to wait out, only the window itself
	if count == 0 {
		return Analysis{allowed: false, wait: rest.Duration}
	}

	// The request has to wait until the oldest request
	// inside the window leaves it
	oldestRequestTime := history[len(history)-count]
	return Analysis{allowed: false, wait: oldestRequestTime.Sub(currentTime.Add(-rest.Duration))}
}
