package docs

// @title           Fleet Tracking API
// @version         1.0
// @description     Technician location aggregation service: GPS ingestion, historical playback, per-tech daily stats, live dispatch roster and a WebSocket location feed. All data is scoped to the caller's account.

// @contact.name   API Support

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
