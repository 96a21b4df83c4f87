package products

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"attira/db"
	"attira/models"
	"attira/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var productUploadPath = "./static/productpic"

// imageFileName gives each upload a unique name so a replaced image is
// never served stale by clients that cached the old URL.
func imageFileName(productID, ext string) string {
	return productID + "_" + utils.GetUUID() + ext
}

// UploadProductImage accepts a multipart image for an existing product,
// stores the original and a 300px thumbnail, and points the catalog entry
// at them. Admin only.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("Product not found with id of %s", productID))
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Unable to parse form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	var ext string
	switch header.Header.Get("Content-Type") {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	default:
		utils.RespondError(w, http.StatusUnsupportedMediaType, "Unsupported image type. Only JPG, PNG and WEBP are allowed.")
		return
	}

	if err := os.MkdirAll(productUploadPath, 0755); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	fileName := imageFileName(productID, ext)
	savePath := filepath.Join(productUploadPath, fileName)
	out, err := os.Create(savePath)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		utils.RespondError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}
	out.Close()

	thumbRel := ""
	if src, err := imaging.Open(savePath); err == nil {
		thumb := imaging.Resize(src, 300, 0, imaging.Lanczos)
		thumbName := strings.TrimSuffix(fileName, ext) + "_thumb.jpg"
		if err := imaging.Save(thumb, filepath.Join(productUploadPath, thumbName)); err == nil {
			thumbRel = "/static/productpic/" + thumbName
		}
	}

	update := bson.M{"$set": bson.M{
		"image":      "/static/productpic/" + fileName,
		"updated_at": time.Now(),
	}}
	if thumbRel != "" {
		update["$set"].(bson.M)["thumb"] = thumbRel
	}
	if _, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": productID}, update); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update product image")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{
		"image": "/static/productpic/" + fileName,
		"thumb": thumbRel,
	})
}
