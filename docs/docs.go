// Package docs registers the gatekeeper OpenAPI document with swag so that
// echo-swagger can serve it under /swagger/*.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "423": {"description": "Locked", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["access"],
                "summary": "Current identity",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/meResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/denialResponse"}}
                }
            }
        },
        "/v1/access": {
            "get": {
                "tags": ["access"],
                "summary": "Check access",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "required", "type": "string", "required": true, "enum": ["user", "technician", "developer", "admin"]}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/accessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/v1/navigation": {
            "get": {
                "tags": ["navigation"],
                "summary": "Navigation decision",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "path", "type": "string", "default": "/"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/navigationResponse"}}
                }
            }
        },
        "/v1/dashboards/{role}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboards"],
                "summary": "Dashboard descriptor",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "role", "type": "string", "required": true, "enum": ["user", "technician", "developer", "admin"]}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboardResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/denialResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/denialResponse"}}
                }
            }
        },
        "/v1/admin/impersonation": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Impersonate a role",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/impersonationRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/roleContext"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/denialResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/denialResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Stop impersonating",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/roleContext"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/denialResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/denialResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "denialResponse": {"type": "object", "properties": {
            "error": {"type": "string"},
            "reason": {"type": "string", "enum": ["unauthenticated", "insufficient-privilege"]},
            "required": {"type": "string"}
        }},
        "loginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "credential": {"type": "object", "properties": {
            "id": {"type": "string"},
            "username": {"type": "string"},
            "role": {"type": "string"},
            "user_email": {"type": "string"},
            "status": {"type": "string"},
            "login_attempts": {"type": "integer"},
            "locked_until": {"type": "string", "format": "date-time"},
            "last_login": {"type": "string", "format": "date-time"}
        }},
        "loginResponse": {"type": "object", "properties": {
            "token": {"type": "string"},
            "session_id": {"type": "string"},
            "credential": {"$ref": "#/definitions/credential"},
            "dashboard": {"type": "string"},
            "dashboard_url": {"type": "string"}
        }},
        "identity": {"type": "object", "properties": {"email": {"type": "string"}, "role": {"type": "string"}, "full_name": {"type": "string"}}},
        "roleContext": {"type": "object", "properties": {
            "real_role": {"type": "string"},
            "effective_role": {"type": "string"},
            "impersonating": {"type": "boolean"}
        }},
        "meResponse": {"type": "object", "properties": {
            "identity": {"$ref": "#/definitions/identity"},
            "roles": {"$ref": "#/definitions/roleContext"},
            "dashboard": {"type": "string"}
        }},
        "accessResponse": {"type": "object", "properties": {
            "allowed": {"type": "boolean"},
            "reason": {"type": "string"},
            "required": {"type": "string"},
            "roles": {"$ref": "#/definitions/roleContext"}
        }},
        "navigationResponse": {"type": "object", "properties": {
            "kind": {"type": "string", "enum": ["render-in-place", "redirect-to-role-dashboard", "redirect-to-public-home"]},
            "target": {"type": "string"},
            "target_url": {"type": "string"},
            "delay_ms": {"type": "integer"},
            "replayed": {"type": "boolean"}
        }},
        "dashboardResponse": {"type": "object", "properties": {
            "page": {"type": "string"},
            "url": {"type": "string"},
            "required": {"type": "string"},
            "roles": {"$ref": "#/definitions/roleContext"}
        }},
        "impersonationRequest": {"type": "object", "required": ["role"], "properties": {"role": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "gatekeeper API",
	Description:      "Role-based access gating and dashboard routing for the operations dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
