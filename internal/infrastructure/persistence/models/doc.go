// Package models contains GORM-specific persistence models for domain
// entities that are kept free of ORM tags. Mappers convert between the
// domain entities and these models; repositories work with the models.
package models
