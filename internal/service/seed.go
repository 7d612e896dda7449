package service

import (
	"fmt"

	"starclicker-rest-api/internal/model"
)

// DefaultSeed returns the starter fan roster and product catalog used to
// populate an empty store. Fan price and income come from config so a
// deployment can rebalance the economy without code changes.
func DefaultSeed(fanPrice, fanIncome int64) ([]model.Fan, []model.Product) {
	fanNames := []string{"John", "Mike", "Sara", "Emma", "Tom"}

	fans := make([]model.Fan, 0, len(fanNames))
	for i, name := range fanNames {
		fans = append(fans, model.Fan{
			Name:     name,
			PhotoURL: fmt.Sprintf("/static/images/fan%d.png", i+1),
			Price:    fanPrice,
			Income:   fanIncome,
		})
	}

	products := []model.Product{
		{Name: "Gold Coin", Price: 100, ImageURL: "/static/images/coin.png", Description: "Increases income by 10%"},
		{Name: "Silver Coin", Price: 50, ImageURL: "/static/images/silver_coin.png", Description: "Increases income by 5%"},
		{Name: "Diamond", Price: 500, ImageURL: "/static/images/diamond.png", Description: "Increases income by 25%"},
		{Name: "Super Booster", Price: 300, ImageURL: "/static/images/booster.png", Description: "Doubles income for 1 hour"},
	}

	return fans, products
}
