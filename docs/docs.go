// Package docs provides the generated Swagger specification.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Refresh tokens",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/gps": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["GPS"],
                "summary": "Report a GPS fix",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["GPS"],
                "summary": "Recent GPS fixes",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dispatch/gps/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dispatch"],
                "summary": "Historical playback",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}
            }
        },
        "/dispatch/techs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dispatch"],
                "summary": "Live tech roster",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dispatch/techs/{tech_id}/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dispatch"],
                "summary": "Tech daily stats",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/dispatch/techs/{tech_id}/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dispatch"],
                "summary": "Recent tech activity",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/ws/dispatch": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dispatch"],
                "summary": "Live location feed",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fleet Tracking API",
	Description:      "Technician location aggregation service: GPS ingestion, historical playback, per-tech daily stats, live dispatch roster and a WebSocket location feed.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
