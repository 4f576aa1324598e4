package neo4j

import (
	"context"
	"errors"

	"github.com/planforge/planforge/internal/infrastructure/resilience"
)

func classifyNeo4jError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	// Projection is best-effort and retried at the executor level only;
	// connectivity failures should trip the breaker so builds stop paying
	// the timeout cost when the graph store is down.
	return resilience.ErrorClassification{
		Retryable:     true,
		RecordFailure: true,
	}
}
