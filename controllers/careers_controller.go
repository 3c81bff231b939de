package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdgroup-ug/storefront/apperrors"
	"github.com/jdgroup-ug/storefront/services"
)

type CareersController struct {
	Careers *services.Careers
}

func NewCareersController(careers *services.Careers) *CareersController {
	return &CareersController{Careers: careers}
}

// Apply accepts a multipart job application form with the CV attached under
// the "cv" field. Validation failures come back before anything is uploaded.
func (jc *CareersController) Apply(c *gin.Context) {
	var form services.ApplicationForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("cv")
	if err != nil {
		respondError(c, apperrors.New(http.StatusBadRequest, "A CV file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	app, err := jc.Careers.SubmitApplication(c.Request.Context(), form, services.CVUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// CVLink returns a short-lived signed download URL for a stored CV.
func (jc *CareersController) CVLink(c *gin.Context) {
	key := c.Query("path")
	if key == "" {
		respondError(c, apperrors.New(http.StatusBadRequest, "path is required", nil))
		return
	}
	url, err := jc.Careers.CVDownloadURL(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
