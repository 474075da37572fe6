package main

//go:generate swag init -g cmd/api/main.go -o docs

// @title           Game Price Compare API
// @version         0.1.0
// @description     Steam, Epic and GOG catalog sync, cross-store price comparison and search.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
