package metrics

import "time"

// RecordProviderCall records one provider API call.
func RecordProviderCall(provider, status string, duration time.Duration) {
	ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordArticlesMapped records the articles produced by a provider response.
func RecordArticlesMapped(provider string, n int) {
	ProviderArticlesMapped.WithLabelValues(provider).Add(float64(n))
}

// RecordItemDropped records an item rejected while mapping a provider response.
func RecordItemDropped(provider, reason string) {
	ProviderItemsDropped.WithLabelValues(provider, reason).Inc()
}

// RecordAggregation records the outcome of one fan-out across providers.
func RecordAggregation(duration time.Duration, fetched, duplicates int, failedSources int) {
	status := "success"
	if failedSources > 0 {
		status = "partial"
	}
	AggregationRunsTotal.WithLabelValues(status).Inc()
	AggregationDuration.Observe(duration.Seconds())
	ArticlesFetchedTotal.Add(float64(fetched))
	DuplicatesRemovedTotal.Add(float64(duplicates))
}

// RecordAggregationFailure records a run that could not start or save.
func RecordAggregationFailure() {
	AggregationRunsTotal.WithLabelValues("failure").Inc()
}

// RecordSave records the rows inserted and skipped by a bulk insert.
func RecordSave(inserted, skipped int64) {
	ArticlesSavedTotal.WithLabelValues("inserted").Add(float64(inserted))
	ArticlesSavedTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// UpdateArticlesTotal sets the stored article count gauge.
func UpdateArticlesTotal(count int64) {
	ArticlesTotal.Set(float64(count))
}

// RecordContentFetchSuccess records a successful content fetch.
func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchFailed records a failed content fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records an article whose provider content was long enough.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}
