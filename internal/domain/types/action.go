package types

// Log actions attached to the logging context.
const (
	ActionDatabaseQueryFailed = "database_query_failed"
	ActionRabbitMQConnected   = "rabbitmq_connected"
	ActionLocationPublished   = "location_published"
	ActionLocationConsumed    = "location_consumed"
	ActionCacheRefreshFailed  = "cache_refresh_failed"
)
