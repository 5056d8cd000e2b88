// Package api contains the HTTP contract of the auth service and the code generated from it.
package api

//go:generate go tool oapi-codegen -config oapi-codegen.yaml openapi.yaml
