// Package swagger exposes the static OpenAPI document served at /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "DormDesk API",
        "description": "Hostel issue tracking, lost & found, and analytics",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Session management"},
        {"name": "Issues", "description": "Issue lifecycle"},
        {"name": "Lost & Found", "description": "Lost item registry and claims"},
        {"name": "Announcements", "description": "Hostel announcements"},
        {"name": "Analytics", "description": "Dashboard read models"},
        {"name": "Directory", "description": "Reference data"},
        {"name": "Reports", "description": "Admin exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Clear the session cookie",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current session user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/issues": {
            "get": {
                "tags": ["Issues"],
                "summary": "List issues",
                "parameters": [
                    {"name": "hostel", "in": "query", "type": "string"},
                    {"name": "block", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "priority", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "unresolved", "in": "query", "type": "boolean"},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "sort_order", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Issues"],
                "summary": "Report an issue",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateIssueRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Reporter profile incomplete"}
                }
            }
        },
        "/api/v1/issues/{id}": {
            "get": {
                "tags": ["Issues"],
                "summary": "Get issue with comments and history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/issues/{id}/claim": {
            "post": {
                "tags": ["Issues"],
                "summary": "Claim an issue (staff)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Staff role required"}
                }
            }
        },
        "/api/v1/issues/{id}/start": {
            "post": {
                "tags": ["Issues"],
                "summary": "Mark an issue in progress (staff)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/issues/{id}/resolve": {
            "post": {
                "tags": ["Issues"],
                "summary": "Resolve an issue (staff)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ResolveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/issues/{id}/close": {
            "post": {
                "tags": ["Issues"],
                "summary": "Close an issue (reporter only)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Only the reporter may close"}
                }
            }
        },
        "/api/v1/issues/{id}/upvote": {
            "post": {
                "tags": ["Issues"],
                "summary": "Toggle an upvote",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/issues/{id}/comments": {
            "get": {
                "tags": ["Issues"],
                "summary": "List comments",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Issues"],
                "summary": "Add a comment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddCommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/lost-items": {
            "get": {
                "tags": ["Lost & Found"],
                "summary": "List lost items with claims",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "hostel", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Lost & Found"],
                "summary": "Report a lost or found item",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportLostItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/lost-items/{id}/claims": {
            "post": {
                "tags": ["Lost & Found"],
                "summary": "Claim a lost item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitClaimRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already claimed by this user"}
                }
            }
        },
        "/api/v1/lost-items/{id}/claims/{claimId}/approve": {
            "post": {
                "tags": ["Lost & Found"],
                "summary": "Approve a claim and mark the item returned",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "claimId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/lost-items/{id}/claims/{claimId}/reject": {
            "post": {
                "tags": ["Lost & Found"],
                "summary": "Reject a claim (staff/admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "claimId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/lost-items/{id}/found": {
            "post": {
                "tags": ["Lost & Found"],
                "summary": "Mark own item as recovered (reporter only)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List unexpired announcements, pinned first",
                "parameters": [
                    {"name": "hostel", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Announcements"],
                "summary": "Publish an announcement (admin)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAnnouncementRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/analytics/categories": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Active issue count per category (staff/admin)",
                "parameters": [
                    {"name": "hostel", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/analytics/hostel-heatmap": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Per hostel/block aggregates",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/analytics/status-distribution": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Three-bucket status breakdown (admin)",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/analytics/summary": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Dashboard KPI figures",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/analytics/lost-items": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Recovered items with claim counts",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/hostels": {
            "get": {
                "tags": ["Directory"],
                "summary": "List hostels",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/hostels/{id}/blocks": {
            "get": {
                "tags": ["Directory"],
                "summary": "List blocks of a hostel",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/categories": {
            "get": {
                "tags": ["Directory"],
                "summary": "List active issue categories",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/users": {
            "get": {
                "tags": ["Directory"],
                "summary": "List users (id and name)",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/reports/issues/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the issue report (admin)",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "hostel", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "priority", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateIssueRequest": {
            "type": "object",
            "required": ["title", "description", "category_id", "priority", "visibility"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category_id": {"type": "string"},
                "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH", "EMERGENCY"]},
                "visibility": {"type": "string", "enum": ["PUBLIC", "PRIVATE"]},
                "media_url": {"type": "string"},
                "hostel_id": {"type": "string"},
                "block_id": {"type": "string"},
                "room": {"type": "string"}
            }
        },
        "ResolveRequest": {
            "type": "object",
            "properties": {
                "note": {"type": "string"}
            }
        },
        "AddCommentRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "content": {"type": "string"},
                "parent_id": {"type": "string"},
                "type": {"type": "string", "enum": ["OFFICIAL_UPDATE", "DISCUSSION"]}
            }
        },
        "ReportLostItemRequest": {
            "type": "object",
            "required": ["title", "description", "status", "location"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["LOST", "FOUND"]},
                "location": {"type": "string"},
                "date": {"type": "string"},
                "image_urls": {"type": "array", "items": {"type": "string"}},
                "hostel_id": {"type": "string"}
            }
        },
        "SubmitClaimRequest": {
            "type": "object",
            "required": ["description"],
            "properties": {
                "description": {"type": "string"},
                "proof_urls": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateAnnouncementRequest": {
            "type": "object",
            "required": ["title", "content"],
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "priority": {"type": "string", "enum": ["LOW", "NORMAL", "HIGH"]},
                "is_pinned": {"type": "boolean"},
                "target_hostel_id": {"type": "string"},
                "target_block_id": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
