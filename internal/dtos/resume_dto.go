package dtos

import "encoding/json"

type ResumeRequest struct {
	Name      string          `json:"name" binding:"required"`
	Theme     string          `json:"theme"`
	JSONData  json.RawMessage `json:"jsonData" binding:"required"`
	IsDefault bool            `json:"isDefault"`
}

type ResumeRenameRequest struct {
	Name string `json:"name" binding:"required"`
}
