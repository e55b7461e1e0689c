package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/trail-point/api-go/controllers"
)

func SetupUploadRoutes(r *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := r.Group("/upload")
	{
		// Check-in proof photo upload URL generation
		upload.POST("/presigned-url", uploadController.GetProofUploadURL)
		upload.POST("/multiple-presigned-urls", uploadController.GetMultipleProofUploadURLs)

		// Confirm upload completion
		upload.POST("/confirm", uploadController.ConfirmUpload)

		// Delete uploaded file
		upload.DELETE("/file/:key", uploadController.DeleteFile)

		// Avatar upload flow
		upload.POST("/avatar/temp-url", uploadController.GetAvatarTempURL)
		upload.POST("/avatar/confirm", uploadController.ConfirmAvatarUpload)
		upload.DELETE("/avatar/temp/:tempKey", uploadController.CleanupTempAvatar)
	}
}
