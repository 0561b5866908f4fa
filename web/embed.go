// Package web은 대시보드 HTML 뷰를 바이너리에 포함합니다.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed views
var views embed.FS

// Views는 'views' 디렉터리를 루트로 하는 파일 시스템입니다.
func Views() fs.FS {
	sub, err := fs.Sub(views, "views")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewEngine은 내장 뷰를 읽는 HTML 템플릿 엔진을 생성합니다.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(Views()), ".html")
}
