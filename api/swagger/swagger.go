package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Spark API",
        "description": "Student app state: announcements, assignments, calendar, clubs, points and rewards",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Ops"
        },
        {
            "name": "User"
        },
        {
            "name": "Dashboard"
        },
        {
            "name": "Announcements"
        },
        {
            "name": "Assignments"
        },
        {
            "name": "Calendar"
        },
        {
            "name": "Campus"
        },
        {
            "name": "Rewards"
        },
        {
            "name": "Debug"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Liveness check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "Cache unreachable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/me": {
            "get": {
                "tags": [
                    "User"
                ],
                "summary": "Current user profile",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/me/notification-preferences": {
            "put": {
                "tags": [
                    "User"
                ],
                "summary": "Replace notification preferences",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/NotificationPreferencesRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/stats": {
            "get": {
                "tags": [
                    "User"
                ],
                "summary": "Today's derived stats",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/state": {
            "get": {
                "tags": [
                    "User"
                ],
                "summary": "Full application state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Home dashboard",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/announcements": {
            "get": {
                "tags": [
                    "Announcements"
                ],
                "summary": "List announcements",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "category",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "priority",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "unread",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "pinned",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "name": "q",
                        "in": "query",
                        "type": "string",
                        "description": "Search title and content"
                    }
                ]
            }
        },
        "/api/v1/announcements/{id}": {
            "get": {
                "tags": [
                    "Announcements"
                ],
                "summary": "Get an announcement",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            },
            "put": {
                "tags": [
                    "Announcements"
                ],
                "summary": "Edit an announcement",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/EditAnnouncementRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/announcements/{id}/read": {
            "post": {
                "tags": [
                    "Announcements"
                ],
                "summary": "Mark as read (+5 points once)",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/announcements/{id}/acknowledge": {
            "post": {
                "tags": [
                    "Announcements"
                ],
                "summary": "Acknowledge (+10 points once)",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/assignments": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "List assignments",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Unknown filter",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "filter",
                        "in": "query",
                        "type": "string",
                        "description": "all, pending, due_soon, overdue or completed"
                    },
                    {
                        "name": "courseId",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "hideCompleted",
                        "in": "query",
                        "type": "boolean"
                    }
                ]
            }
        },
        "/api/v1/assignments/export": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Export assignments",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "description": "csv or pdf"
                    },
                    {
                        "name": "filter",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/api/v1/assignments/{id}": {
            "get": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Get an assignment",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/assignments/{id}/status": {
            "patch": {
                "tags": [
                    "Assignments"
                ],
                "summary": "Change assignment status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Transition not allowed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateAssignmentStatusRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/calendar": {
            "get": {
                "tags": [
                    "Calendar"
                ],
                "summary": "List calendar events",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "YYYY-MM-DD"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "YYYY-MM-DD, inclusive"
                    }
                ]
            }
        },
        "/api/v1/calendar/export": {
            "get": {
                "tags": [
                    "Calendar"
                ],
                "summary": "Export calendar events",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "description": "csv or pdf"
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/api/v1/courses": {
            "get": {
                "tags": [
                    "Campus"
                ],
                "summary": "List enrolled courses",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/clubs": {
            "get": {
                "tags": [
                    "Campus"
                ],
                "summary": "List clubs with events",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/clubs/{clubId}/events/{eventId}/rsvp": {
            "post": {
                "tags": [
                    "Campus"
                ],
                "summary": "RSVP to a club event (+15 points once)",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "clubId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "eventId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/badges": {
            "get": {
                "tags": [
                    "Rewards"
                ],
                "summary": "List badges",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/rewards": {
            "get": {
                "tags": [
                    "Rewards"
                ],
                "summary": "List the reward catalog",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/rewards/{id}/redeem": {
            "post": {
                "tags": [
                    "Rewards"
                ],
                "summary": "Redeem a reward",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Unavailable or insufficient points; data.redeemed is false",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/api/v1/points": {
            "post": {
                "tags": [
                    "Rewards"
                ],
                "summary": "Adjust the points balance",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Balance would go negative",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddPointsRequest"
                        }
                    }
                ]
            }
        },
        "/api/v1/streak/increment": {
            "post": {
                "tags": [
                    "Rewards"
                ],
                "summary": "Extend the daily streak",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/streak/break": {
            "post": {
                "tags": [
                    "Rewards"
                ],
                "summary": "Reset the current streak",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/activity": {
            "get": {
                "tags": [
                    "Rewards"
                ],
                "summary": "Recent points activity",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ]
            }
        },
        "/api/v1/debug/reset-points": {
            "post": {
                "tags": [
                    "Debug"
                ],
                "summary": "Reset points to 500",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Debug endpoints disabled",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "UpdateAssignmentStatusRequest": {
            "type": "object",
            "required": [
                "status"
            ],
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "Pending",
                        "In Progress",
                        "Submitted",
                        "Graded",
                        "Late"
                    ]
                }
            }
        },
        "AddPointsRequest": {
            "type": "object",
            "required": [
                "amount",
                "reason"
            ],
            "properties": {
                "amount": {
                    "type": "integer",
                    "minimum": -10000,
                    "maximum": 10000
                },
                "reason": {
                    "type": "string",
                    "maxLength": 200
                }
            }
        },
        "EditAnnouncementRequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "Urgent",
                        "High",
                        "Normal",
                        "Low"
                    ]
                },
                "is_pinned": {
                    "type": "boolean"
                },
                "changes": {
                    "type": "string"
                },
                "changed_by": {
                    "type": "string"
                }
            }
        },
        "NotificationPreferencesRequest": {
            "type": "object",
            "properties": {
                "push_enabled": {
                    "type": "boolean"
                },
                "email_enabled": {
                    "type": "boolean"
                },
                "urgent_only": {
                    "type": "boolean"
                },
                "assignment_reminders": {
                    "type": "boolean"
                },
                "exam_reminders": {
                    "type": "boolean"
                },
                "club_updates": {
                    "type": "boolean"
                },
                "deadline_alerts": {
                    "type": "boolean"
                },
                "streak_reminders": {
                    "type": "boolean"
                }
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
