package oauth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess       = "success"
	resultStateError    = "state_error"
	resultDenied        = "denied"
	resultExchangeError = "exchange_error"
	resultProfileError  = "profile_error"
	resultVerifyError   = "verify_error"
)

var (
	authentications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oauth",
		Name:      "authentications_total",
		Help:      "Completed oauth callbacks, by provider and result.",
	}, []string{"provider", "result"})

	profileFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oauth",
		Name:      "profile_fetches_total",
		Help:      "Profile retrievals from the provider, by provider and result.",
	}, []string{"provider", "result"})
)

func observeAuthentication(provider, result string) {
	authentications.WithLabelValues(provider, result).Inc()
}

// ObserveProfileFetch records the outcome of a profile retrieval.
//
// Providers call it from their UserProfile implementation.
func ObserveProfileFetch(provider string, err error) {
	result := resultSuccess
	if err != nil {
		result = "error"
	}
	profileFetches.WithLabelValues(provider, result).Inc()
}
