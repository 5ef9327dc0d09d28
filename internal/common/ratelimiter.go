package common

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type Analysis struct {
	allowed bool          // If the request is allowed
	wait    time.Duration // The minimal time to wait before the request is allowed
}

// RateLimiter keeps a sliding history of request times and decides,
// against a set of restrictions, when one more request may go out.
// Execution in this program is strictly sequential, so waiting for a
// slot simply blocks the caller
type RateLimiter struct {
	restrictions []Restriction // Restrictions to consider
	history      []time.Time   // History of requests, chronological
	duration     time.Duration // Window after which history entries are irrelevant to every restriction
}

func NewRateLimiter(restrictions []Restriction) RateLimiter {
	rl := RateLimiter{}
	rl.restrictions = append(rl.restrictions, restrictions...)
	for i := 0; i < len(restrictions); i++ {
		if restrictions[i].Duration > rl.duration {
			rl.duration = restrictions[i].Duration
		}
	}
	return rl
}

// Wait blocks until every restriction allows one more request,
// then records the request in the history
func (rl *RateLimiter) Wait() {
	for {
		// Trim history first
		rl.trim()
		// Check if the restrictions allow this request
		analysis := rl.analyse()
		if analysis.allowed {
			rl.history = append(rl.history, time.Now())
			return
		}
		log.Warn().Msg(fmt.Sprintf("Request delayed %.2f seconds by the rate limiter", analysis.wait.Seconds()))
		time.Sleep(analysis.wait)
	}
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim() {
	currentTime := time.Now()
	// Find the index from which we need to keep the history.
	// Start searching at the end of the slice.
	// Times are stored in chronological order
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if currentTime.Sub(rl.history[i]) > rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

func (rl *RateLimiter) analyse() Analysis {

	// Perform an analysis for each of the restrictions
	analyses := make([]Analysis, 0, len(rl.restrictions))
	for i := range rl.restrictions {
		analyses = append(analyses, rl.restrictions[i].Analyse(rl.history))
	}

	// Merge the analyses and return
	var wait time.Duration
	allowed := true
	for _, analysis := range analyses {
		allowed = allowed && analysis.allowed
		if analysis.wait > wait {
			wait = analysis.wait
		}
	}
	return Analysis{allowed, wait}
}
