package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/store"
)

const MAX_PAGE_SIZE = 100

var validSortOrders = map[string]bool{
	"newest":     true,
	"oldest":     true,
	"price_asc":  true,
	"price_desc": true,
}

// ListNFTsQueryParams holds query parameters for GET /nfts
type ListNFTsQueryParams struct {
	Technique  string `form:"technique"`
	CreatorID  int64  `form:"creator_id"`
	OwnerID    int64  `form:"owner_id"`
	ListedOnly bool   `form:"listed_only"`
	MinPrice   int64  `form:"min_price_tinybar"`
	MaxPrice   int64  `form:"max_price_tinybar"`
	Search     string `form:"search"`
	Sort       string `form:"sort,default=newest"`
	Limit      int    `form:"limit,default=20"`
	Offset     int    `form:"offset,default=0"`
}

// ParseListNFTsQuery parses and validates query parameters for GET /nfts
func ParseListNFTsQuery(c *gin.Context) (*ListNFTsQueryParams, error) {
	var params ListNFTsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Technique != "" && !domain.Technique(params.Technique).Valid() {
		return nil, fmt.Errorf("unknown technique: %s", params.Technique)
	}
	if !validSortOrders[params.Sort] {
		return nil, fmt.Errorf("unknown sort order: %s", params.Sort)
	}
	if params.MinPrice < 0 || params.MaxPrice < 0 {
		return nil, fmt.Errorf("price bounds cannot be negative")
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	return &params, nil
}

// Filter converts the query parameters to a store filter
func (p *ListNFTsQueryParams) Filter() store.NFTFilter {
	filter := store.NFTFilter{
		ListedOnly: p.ListedOnly,
		Search:     p.Search,
		SortBy:     p.Sort,
		Limit:      p.Limit,
		Offset:     p.Offset,
	}
	if p.Technique != "" {
		technique := domain.Technique(p.Technique)
		filter.Technique = &technique
	}
	if p.CreatorID > 0 {
		filter.CreatorID = &p.CreatorID
	}
	if p.OwnerID > 0 {
		filter.OwnerID = &p.OwnerID
	}
	if p.MinPrice > 0 {
		filter.MinPriceTinybar = &p.MinPrice
	}
	if p.MaxPrice > 0 {
		filter.MaxPriceTinybar = &p.MaxPrice
	}
	return filter
}

// PageQueryParams holds plain limit/offset pagination
type PageQueryParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ParsePageQuery parses limit/offset pagination parameters
func ParsePageQuery(c *gin.Context) (*PageQueryParams, error) {
	var params PageQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return &params, nil
}
