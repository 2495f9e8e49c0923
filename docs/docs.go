// Package docs holds the swagger document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Trip Planner Backend",
    "description": "Itinerary storage with geocoding, driving time calculation and calendar export",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/api/geocode": {
      "get": {
        "tags": ["geo"],
        "summary": "Geocode a place name",
        "produces": ["application/json"],
        "parameters": [{"name": "q", "in": "query", "type": "string", "required": true}],
        "responses": {"200": {"description": "OK"}, "422": {"description": "No provider resolved the name"}}
      }
    },
    "/api/drive-time": {
      "get": {
        "tags": ["geo"],
        "summary": "Driving time between two place names",
        "produces": ["application/json"],
        "parameters": [
          {"name": "from", "in": "query", "type": "string", "required": true},
          {"name": "to", "in": "query", "type": "string", "required": true}
        ],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/api/itineraries": {
      "post": {
        "tags": ["itineraries"],
        "summary": "Create itinerary",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
      }
    },
    "/api/itineraries/{id}/calculate": {
      "post": {
        "tags": ["itineraries"],
        "summary": "Calculate driving times",
        "description": "Geocodes every location and fills in the driving time of each leg",
        "produces": ["application/json"],
        "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
        "responses": {"200": {"description": "OK"}, "422": {"description": "Precondition or geocoding failure"}}
      }
    },
    "/api/itineraries/{id}/locations": {
      "post": {
        "tags": ["itineraries"],
        "summary": "Append a location",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
        "responses": {"201": {"description": "Created"}, "404": {"description": "Itinerary not found"}}
      }
    },
    "/api/snapshot": {
      "get": {
        "tags": ["data"],
        "summary": "Export backup",
        "produces": ["application/json"],
        "responses": {"200": {"description": "OK"}}
      }
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
