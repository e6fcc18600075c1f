package store

import (
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type ImportRunQueryFilter BaseQuerier

func NewImportRunQueryFilter() *ImportRunQueryFilter {
	return &ImportRunQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *ImportRunQueryFilter) ByAgencyKey(agencyKey string) *ImportRunQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("agency_key = ?", agencyKey)
	})
	return qf
}

func (qf *ImportRunQueryFilter) ByStatus(status ...string) *ImportRunQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status IN ?", status)
	})
	return qf
}

type ImportRunQueryOptions BaseQuerier

func NewImportRunQueryOptions() *ImportRunQueryOptions {
	return &ImportRunQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

// Most recent runs first
func (o *ImportRunQueryOptions) WithLatestFirst() *ImportRunQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Order("started_at DESC")
	})
	return o
}

func (o *ImportRunQueryOptions) WithLimit(limit int) *ImportRunQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}
