// Package docs holds the generated OpenAPI specification. Regenerate with:
//
//	swag init -g cmd/server/main.go -o docs
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
        "/classify": {
            "post": {
                "tags": ["classify"],
                "summary": "Classify a product description"
            }
        },
        "/classify/answer": {
            "post": {
                "tags": ["classify"],
                "summary": "Answer a clarifying question"
            }
        },
        "/deterministic": {
            "post": {
                "tags": ["deterministic"],
                "summary": "Build a deterministic compliance payload"
            }
        },
        "/deterministic/explain": {
            "post": {
                "tags": ["deterministic"],
                "summary": "Build and annotate a compliance payload"
            }
        },
        "/chat/resolve": {
            "post": {
                "tags": ["chat"],
                "summary": "Resolve a free-text trade query"
            }
        },
        "/chat/answer": {
            "post": {
                "tags": ["chat"],
                "summary": "Answer a chat clarifying question"
            }
        },
        "/admin/reindex": {
            "post": {
                "tags": ["admin"],
                "summary": "Rebuild the vector index",
                "security": [{"BearerAuth": []}]
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

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Tarco API",
	Description:      "Commodity-code classification and deterministic trade-compliance payloads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
