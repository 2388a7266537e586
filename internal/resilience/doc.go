// Package resilience groups the fault tolerance helpers used around outbound
// calls to the news providers, article pages and notification webhooks.
//
// Calls are never retried. A failing dependency is isolated by a circuit
// breaker so that one broken provider does not slow down every aggregation run.
//
//	cb := circuitbreaker.New(circuitbreaker.ProviderConfig("guardian"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callProvider()
//	})
package resilience
