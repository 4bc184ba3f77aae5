package api

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/drilldown"
	"trade-kpi-lab/internal/pipeline"
)

const dateLayout = "2006-01-02"

// analysisQuery holds the query parameters shared by every pass endpoint.
// Empty fields keep the server's default request.
type analysisQuery struct {
	From       string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	TimeBucket string `json:"time_bucket" validate:"omitempty,oneof=year year_quarter year_month year_week"`
	Dimension  string `json:"dimension" validate:"omitempty,dimension"`
	TopN       string `json:"top_n" validate:"omitempty,number"`
	RowTotal   string `json:"row_total" validate:"omitempty,boolean"`
	ColTotal   string `json:"col_total" validate:"omitempty,boolean"`

	Category         string `json:"category"`
	SubCategory      string `json:"sub_category"`
	Item             string `json:"item"`
	SellerType       string `json:"seller_type"`
	SellerDetailType string `json:"seller_detail_type"`
	BuyerType        string `json:"buyer_type"`
	TradeType        string `json:"trade_type"`

	// Exclude replaces the default excluded items when the parameter is
	// present at all; "exclude=" clears them.
	Exclude    []string `json:"exclude"`
	HasExclude bool     `json:"-"`

	SharesDimension string `json:"shares_dimension" validate:"omitempty,dimension"`
	MoversDimension string `json:"movers_dimension" validate:"omitempty,dimension"`
	MoversLimit     string `json:"movers_limit" validate:"omitempty,number"`
}

// pivotQuery selects one metric of a pass.
type pivotQuery struct {
	analysisQuery
	Metric string `json:"metric" validate:"omitempty,oneof=amount volume count"`
}

// drillQuery selects one pivot cell and a page of its records.
type drillQuery struct {
	analysisQuery
	Bucket   string `json:"bucket"`
	Column   string `json:"column"`
	Page     string `json:"page" validate:"omitempty,number"`
	PageSize string `json:"page_size" validate:"omitempty,number"`
}

func parseAnalysisQuery(v url.Values) analysisQuery {
	q := analysisQuery{
		From:             v.Get("from"),
		To:               v.Get("to"),
		TimeBucket:       v.Get("time_bucket"),
		Dimension:        v.Get("dimension"),
		TopN:             v.Get("top_n"),
		RowTotal:         v.Get("row_total"),
		ColTotal:         v.Get("col_total"),
		Category:         v.Get("category"),
		SubCategory:      v.Get("sub_category"),
		Item:             v.Get("item"),
		SellerType:       v.Get("seller_type"),
		SellerDetailType: v.Get("seller_detail_type"),
		BuyerType:        v.Get("buyer_type"),
		TradeType:        v.Get("trade_type"),
		SharesDimension:  v.Get("shares_dimension"),
		MoversDimension:  v.Get("movers_dimension"),
		MoversLimit:      v.Get("movers_limit"),
	}
	if raw, ok := v["exclude"]; ok {
		q.HasExclude = true
		for _, s := range raw {
			for _, item := range strings.Split(s, ",") {
				if item = strings.TrimSpace(item); item != "" {
					q.Exclude = append(q.Exclude, item)
				}
			}
		}
	}
	return q
}

func parsePivotQuery(v url.Values) pivotQuery {
	return pivotQuery{analysisQuery: parseAnalysisQuery(v), Metric: v.Get("metric")}
}

func parseDrillQuery(v url.Values) drillQuery {
	return drillQuery{
		analysisQuery: parseAnalysisQuery(v),
		Bucket:        v.Get("bucket"),
		Column:        v.Get("column"),
		Page:          v.Get("page"),
		PageSize:      v.Get("page_size"),
	}
}

// apply overlays the query onto base. The query must already be validated.
func (q analysisQuery) apply(base pipeline.Request) pipeline.Request {
	req := base
	req.Criteria.ExcludedItems = append([]string(nil), base.Criteria.ExcludedItems...)

	if q.From != "" {
		t, _ := time.Parse(dateLayout, q.From)
		req.Criteria.DateFrom = &t
	}
	if q.To != "" {
		t, _ := time.Parse(dateLayout, q.To)
		req.Criteria.DateTo = &t
	}
	if q.TimeBucket != "" {
		req.TimeBucket = domain.TimeBucket(q.TimeBucket)
	}
	if q.Dimension != "" {
		req.Dimension = domain.Dimension(q.Dimension)
	}
	if q.TopN != "" {
		req.TopN, _ = strconv.Atoi(q.TopN)
	}
	if q.RowTotal != "" {
		req.ShowRowTotal, _ = strconv.ParseBool(q.RowTotal)
	}
	if q.ColTotal != "" {
		req.ShowColTotal, _ = strconv.ParseBool(q.ColTotal)
	}

	setIf(&req.Criteria.Category, q.Category)
	setIf(&req.Criteria.SubCategory, q.SubCategory)
	setIf(&req.Criteria.Item, q.Item)
	setIf(&req.Criteria.SellerType, q.SellerType)
	setIf(&req.Criteria.SellerDetailType, q.SellerDetailType)
	setIf(&req.Criteria.BuyerType, q.BuyerType)
	setIf(&req.Criteria.TradeTypeCorrected, q.TradeType)
	if q.HasExclude {
		req.Criteria.ExcludedItems = q.Exclude
	}

	if q.SharesDimension != "" {
		req.SharesDimension = domain.Dimension(q.SharesDimension)
	}
	if q.MoversDimension != "" {
		req.MoversDimension = domain.Dimension(q.MoversDimension)
	}
	if q.MoversLimit != "" {
		req.MoversLimit, _ = strconv.Atoi(q.MoversLimit)
	}
	return req
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (q pivotQuery) metric() domain.Metric {
	if q.Metric == "" {
		return domain.MetricAmount
	}
	return domain.Metric(q.Metric)
}

func (q drillQuery) selection() drilldown.Selection {
	return drilldown.Selection{
		TimeBucket: domain.TimeBucket(q.TimeBucket),
		Dimension:  domain.Dimension(q.Dimension),
		Bucket:     q.Bucket,
		Category:   q.Column,
	}
}

// page builds the page request. An unsupported page_size keeps defaultSize.
func (q drillQuery) page(defaultSize int) drilldown.PageRequest {
	req := drilldown.PageRequest{Page: 1, PageSize: defaultSize}
	if q.Page != "" {
		req.Page, _ = strconv.Atoi(q.Page)
	}
	if n, err := strconv.Atoi(q.PageSize); err == nil && drilldown.ValidPageSize(n) {
		req.PageSize = n
	}
	return req
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("dimension", func(fl validator.FieldLevel) bool {
		return domain.Dimension(fl.Field().String()).IsValid()
	})
	return v
}

// validateQuery runs struct validation and wraps failures in errBadQuery.
func validateQuery(v *validator.Validate, q any) error {
	err := v.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errBadQuery, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s=%q failed %s", fe.Field(), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", errBadQuery, strings.Join(msgs, "; "))
}
