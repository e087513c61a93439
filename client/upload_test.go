package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/meemong/shampooroom/config"
)

func TestUploadImagePresignedFlow(t *testing.T) {
	// Storage endpoint receiving the direct upload.
	var uploadedField, uploadedFile string
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST to storage, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("bad multipart body: %v", err)
		}
		uploadedField = r.FormValue("key")
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file part missing: %v", err)
		} else {
			buf := make([]byte, 16)
			n, _ := f.Read(buf)
			uploadedFile = string(buf[:n])
			f.Close()
		}
		w.WriteHeader(204)
	}))
	defer storage.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/uploads/images/presigned-url", func(ctx *gin.Context) {
		if ctx.Query("filename") != "cut.jpg" {
			t.Errorf("filename not forwarded: %q", ctx.Query("filename"))
		}
		ctx.JSON(200, gin.H{"data": gin.H{
			"uploadData": gin.H{
				"url":    storage.URL,
				"fields": gin.H{"key": "images/abc/cut.jpg", "policy": "p"},
			},
			"requestMethod": "POST",
		}})
	})
	api := httptest.NewServer(r)
	defer api.Close()

	cfg := config.AppConfig{
		APIBaseURL:     api.URL,
		StorageHost:    "https://job-storage.example.com",
		HTTPTimeoutSec: 5,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	c, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	img, err := c.UploadImage(context.Background(), "cut.jpg", strings.NewReader("JPEGDATA"))
	if err != nil {
		t.Fatal(err)
	}
	if img.ImageURL != "https://job-storage.example.com/images/abc/cut.jpg" {
		t.Fatalf("asset URL not derived from storage key: %q", img.ImageURL)
	}
	if uploadedField != "images/abc/cut.jpg" {
		t.Fatalf("presigned fields not forwarded: %q", uploadedField)
	}
	if uploadedFile != "JPEGDATA" {
		t.Fatalf("file content lost: %q", uploadedFile)
	}
}

func TestUploadImageStorageFailure(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer storage.Close()

	c := newTestClient(t, func(r *gin.Engine) {
		r.GET("/uploads/images/presigned-url", func(ctx *gin.Context) {
			ctx.JSON(200, gin.H{"data": gin.H{
				"uploadData":    gin.H{"url": storage.URL, "fields": gin.H{"key": "k"}},
				"requestMethod": "POST",
			}})
		})
	})

	if _, err := c.UploadImage(context.Background(), "a.jpg", strings.NewReader("x")); err == nil {
		t.Fatal("storage failure must surface")
	}
}
