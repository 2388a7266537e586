// Package config holds the fail-open environment loaders used by the worker.
// An invalid value never stops the process: the default is used, a warning is
// logged and the fallback is counted in the component's config metrics.
package config
