// Package docs holds the swagger document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/token": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Exchange the owner passphrase for a token",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/assets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Assets"],
                "summary": "List assets",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/assets/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Assets"],
                "summary": "Delete an asset",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/wallets": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Assets"],
                "summary": "Add cash to a wallet",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/wallets/{id}/transactions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Assets"],
                "summary": "Deposit to or withdraw from a wallet",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/investments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Assets"],
                "summary": "Buy an investment",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/investments/{id}/sell": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Assets"],
                "summary": "Sell an investment",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/exchange": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Assets"],
                "summary": "Exchange currency between wallets",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/portfolio/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Portfolio"],
                "summary": "Export the portfolio as JSON",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/portfolio/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Portfolio"],
                "summary": "Replace the portfolio from an export",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/portfolio/consolidate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Portfolio"],
                "summary": "Merge duplicate positions",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/portfolio/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Portfolio"],
                "summary": "Portfolio valuation summary",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/market/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Market"],
                "summary": "Refresh prices",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/market/search": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Market"],
                "summary": "Search symbols",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/market/info": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Market"],
                "summary": "Symbol profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/market/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Market"],
                "summary": "Market session status",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/news": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Market"],
                "summary": "Market news",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analysis/mode": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Analysis"],
                "summary": "Current analysis strategy",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analysis/portfolio": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Analysis"],
                "summary": "Analyze the portfolio",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analysis/news": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Analysis"],
                "summary": "Analyze news",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analysis/article": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Analysis"],
                "summary": "Analyze an article",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analysis/chat": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Analysis"],
                "summary": "Chat with the analyst",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Real-time valuation history",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/history/daily": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Daily valuation history",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Activity"],
                "summary": "Activity log",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/pipeline/refresh": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["Pipeline"],
                "summary": "Scheduled price refresh",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        },
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Thaifolio API",
	Description:      "Thaifolio tracks a THB/USD portfolio of cash wallets and investments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
