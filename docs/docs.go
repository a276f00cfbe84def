// Package docs registers the OpenAPI description served under /swagger.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new account",
                "parameters": [
                    {"type": "string", "description": "Retry key; a repeat returns the first account", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "200": {"description": "Replayed registration", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/accounts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Look up accounts by email or role",
                "parameters": [
                    {"type": "string", "description": "Exact email", "name": "email", "in": "query"},
                    {"type": "string", "description": "user, band or admin", "name": "role", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.accountListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/accounts/bands/unlinked": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List band accounts without an artist profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.accountListResponse"}}
                }
            }
        },
        "/v1/accounts/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Get an account by id",
                "parameters": [
                    {"type": "string", "description": "Account id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Set to artist to resolve the linked artist", "name": "expand", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Update profile fields",
                "parameters": [
                    {"type": "string", "description": "Account id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["accounts"],
                "summary": "Delete an account",
                "parameters": [
                    {"type": "string", "description": "Account id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/accounts/{id}/artist": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Link a band account to an artist profile",
                "parameters": [
                    {"type": "string", "description": "Account id", "name": "id", "in": "path", "required": true},
                    {"description": "Artist reference", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.linkArtistRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/accounts/{id}/following/{artistId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["social"],
                "summary": "Follow an artist",
                "parameters": [
                    {"type": "string", "description": "Account id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Artist id", "name": "artistId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["social"],
                "summary": "Unfollow an artist",
                "parameters": [
                    {"type": "string", "description": "Account id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Artist id", "name": "artistId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/accounts/{id}/liked-tracks/{trackId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["social"],
                "summary": "Like a track",
                "parameters": [
                    {"type": "string", "description": "Account id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Track id", "name": "trackId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["social"],
                "summary": "Remove a track like",
                "parameters": [
                    {"type": "string", "description": "Account id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Track id", "name": "trackId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Artist": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "bio": {"type": "string"},
                "genre": {"type": "array", "items": {"type": "string"}},
                "imageUrl": {"type": "string"},
                "followerCount": {"type": "integer"},
                "verified": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.Account": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "username": {"type": "string"},
                "profileImage": {"type": "string"},
                "bannerImage": {"type": "string"},
                "bio": {"type": "string"},
                "socialLinks": {"type": "object"},
                "role": {"type": "string", "enum": ["user", "band", "admin"]},
                "bandName": {"type": "string"},
                "genre": {"type": "string"},
                "website": {"type": "string"},
                "artistId": {"type": "string"},
                "artist": {"$ref": "#/definitions/domain.Artist"},
                "following": {"type": "array", "items": {"type": "string"}},
                "followers": {"type": "array", "items": {"type": "string"}},
                "likedTracks": {"type": "array", "items": {"type": "string"}},
                "purchaseHistory": {"type": "array", "items": {"type": "object"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "handler.accountListResponse": {
            "type": "object",
            "properties": {
                "accounts": {"type": "array", "items": {"$ref": "#/definitions/domain.Account"}},
                "count": {"type": "integer"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "account": {"$ref": "#/definitions/domain.Account"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.linkArtistRequest": {
            "type": "object",
            "required": ["artistId"],
            "properties": {
                "artistId": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string", "minLength": 3},
                "password": {"type": "string", "minLength": 8},
                "role": {"type": "string", "enum": ["user", "band"]},
                "bandName": {"type": "string"},
                "genre": {"type": "string"}
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
	Title:            "SoundHub User Service API",
	Description:      "Account, profile and social-graph service for SoundHub.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
