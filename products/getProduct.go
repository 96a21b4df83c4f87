package products

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"attira/db"
	"attira/models"
	"attira/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// catalogFilter builds the listing filter. The search term is matched as
// literal text; regex metacharacters in user input are escaped.
func catalogFilter(opts utils.QueryOptions) bson.M {
	filter := bson.M{}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if opts.Search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(opts.Search), Options: "i"}}
	}
	return filter
}

// GetProducts lists the catalog with optional ?category=, ?search= and
// pagination.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)
	filter := catalogFilter(opts)

	findOpts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := db.ProductCollection.Find(ctx, filter, findOpts)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to read products")
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"count":   len(list),
		"data":    list,
	})
}

// GetProduct returns a single catalog entry.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("Product not found with id of %s", productID))
		return
	}

	utils.RespondSuccess(w, http.StatusOK, product)
}
