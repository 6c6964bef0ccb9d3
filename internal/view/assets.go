package view

import "embed"

//go:embed assets/*
var Assets embed.FS
