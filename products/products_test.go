package products

import (
	"strings"
	"testing"

	"attira/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validProduct() productInput {
	return productInput{
		Name:        "Graphic Tee",
		Category:    "T-shirt",
		Description: "Heavy cotton graphic tee",
		Price:       79900,
		Stock:       25,
		Sizes:       []string{"S", "M", "L"},
		Colour:      "black",
	}
}

func TestValidateProductInputAccepts(t *testing.T) {
	assert.NoError(t, validateProductInput(validProduct()))
}

func TestValidateProductInputName(t *testing.T) {
	in := validProduct()
	in.Name = ""
	assert.Error(t, validateProductInput(in))

	in.Name = strings.Repeat("x", 101)
	assert.Error(t, validateProductInput(in))

	in.Name = strings.Repeat("x", 100)
	assert.NoError(t, validateProductInput(in))
}

func TestValidateProductInputCategoryEnum(t *testing.T) {
	in := validProduct()
	in.Category = "Electronics"
	assert.Error(t, validateProductInput(in))

	for _, c := range []string{"T-shirt", "Hoodie", "Shoes", "Other"} {
		in.Category = c
		assert.NoError(t, validateProductInput(in), c)
	}
}

func TestValidateProductInputPriceAndStock(t *testing.T) {
	in := validProduct()
	in.Price = 0
	assert.Error(t, validateProductInput(in))

	in = validProduct()
	in.Price = -100
	assert.Error(t, validateProductInput(in))

	in = validProduct()
	in.Stock = -1
	assert.Error(t, validateProductInput(in))

	in = validProduct()
	in.Stock = 0
	assert.NoError(t, validateProductInput(in))
}

func TestValidateProductInputSizes(t *testing.T) {
	in := validProduct()
	in.Sizes = nil
	assert.Error(t, validateProductInput(in))

	in = validProduct()
	in.Sizes = []string{"S", "XXXL"}
	assert.Error(t, validateProductInput(in))
}

func TestCatalogFilterEscapesSearchMetacharacters(t *testing.T) {
	f := catalogFilter(utils.QueryOptions{Search: "a+b("})

	rx, ok := f["name"].(bson.M)["$regex"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `a\+b\(`, rx.Pattern)
	assert.Equal(t, "i", rx.Options)
}

func TestCatalogFilterCategoryOnly(t *testing.T) {
	f := catalogFilter(utils.QueryOptions{Category: "Shoes"})

	assert.Equal(t, "Shoes", f["category"])
	_, hasName := f["name"]
	assert.False(t, hasName)
}

func TestImageFileNameIsUniquePerUpload(t *testing.T) {
	a := imageFileName("p1", ".jpg")
	b := imageFileName("p1", ".jpg")

	assert.True(t, strings.HasPrefix(a, "p1_"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
}
