// Package docs is the swagger document for the JSON endpoints.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/admin/api/cache/clear": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Drop every cached index page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.messageResponse"}}
                }
            }
        },
        "/admin/api/groups": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List groups",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.groupsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create a group",
                "parameters": [
                    {
                        "description": "Group",
                        "name": "group",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/service.GroupForm"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Group"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.validationResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/admin/api/posts/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete a post with its comments",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue an identity token",
                "parameters": [
                    {
                        "description": "Username and password",
                        "name": "credentials",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.tokenRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.tokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handlers.groupsResponse": {
            "type": "object",
            "properties": {
                "groups": {"type": "array", "items": {"$ref": "#/definitions/models.Group"}}
            }
        },
        "handlers.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handlers.tokenRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handlers.tokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/handlers.userResponse"}
            }
        },
        "handlers.userResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handlers.validationResponse": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "object",
                    "additionalProperties": {"type": "array", "items": {"type": "string"}}
                }
            }
        },
        "models.Group": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "slug": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "service.GroupForm": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "slug": {"type": "string"},
                "title": {"type": "string"}
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
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Yatube API",
	Description:      "Admin and token endpoints of the Yatube blog platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
