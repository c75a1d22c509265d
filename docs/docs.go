// Package docs 注册 novelpack API 的 Swagger 文档
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "就绪检查",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "依赖不可用"}
                }
            }
        },
        "/api/v1/unpack": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["分块处理"],
                "summary": "分块处理记录文件",
                "parameters": [
                    {
                        "description": "分块请求",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/unpack.UnpackRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "成功响应", "schema": {"$ref": "#/definitions/http.SuccessResponse"}},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "文件不存在", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "记录内容无效", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "服务器内部错误", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/v1/runs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["分块处理"],
                "summary": "处理记录列表",
                "parameters": [
                    {"type": "string", "description": "记录文件路径", "name": "source", "in": "query"},
                    {"type": "string", "description": "状态 running/succeeded/failed", "name": "status", "in": "query"},
                    {"type": "integer", "description": "条数，默认 50", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "成功响应", "schema": {"$ref": "#/definitions/http.SuccessResponse"}},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "未配置 MongoDB", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/v1/runs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["分块处理"],
                "summary": "获取处理记录",
                "parameters": [
                    {"type": "string", "description": "处理记录ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "成功响应", "schema": {"$ref": "#/definitions/http.SuccessResponse"}},
                    "404": {"description": "记录不存在", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "未配置 MongoDB", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/v1/library": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["记录文件"],
                "summary": "记录文件列表",
                "parameters": [
                    {"type": "string", "description": "目录", "name": "dir", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "成功响应", "schema": {"$ref": "#/definitions/http.SuccessResponse"}},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "目录不存在", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "detail": {"type": "string"}
            }
        },
        "http.SuccessResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "unpack.UnpackRequest": {
            "type": "object",
            "required": ["path"],
            "properties": {
                "path": {"type": "string"},
                "chunk_size": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo 可在运行时修改的文档信息
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "novelpack API",
	Description:      "把小说章节记录文件切分为文本文件",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
