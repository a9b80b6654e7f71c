// Package dtos - Mappers для конвертации между catalog records, entities и DTOs.
//
// Pattern: Mapper/Converter
package dtos

import (
	"github.com/Haleralex/quefilme/internal/application/ports"
	"github.com/Haleralex/quefilme/internal/domain/entities"
)

// MovieFromCatalog builds the domain entity from a catalog record.
func MovieFromCatalog(record ports.CatalogRecord) *entities.Movie {
	return entities.NewMovie(record.Movie)
}

// ToMovieDTO конвертирует domain entity Movie в DTO.
func ToMovieDTO(movie *entities.Movie) MovieDTO {
	return MovieDTO{
		Title:       movie.Title(),
		IMDbID:      movie.IMDbID(),
		Type:        movie.Type(),
		Image:       movie.Image(),
		Year:        movie.Year(),
		Runtime:     movie.Runtime(),
		Genre:       movie.Genre(),
		Actors:      movie.Actors(),
		Description: movie.Description(),
	}
}

// ToMovieDTOList конвертирует результаты поиска. Never returns nil.
func ToMovieDTOList(search *ports.CatalogSearch) []MovieDTO {
	if search == nil || !search.Found {
		return []MovieDTO{}
	}

	result := make([]MovieDTO, len(search.Results))
	for i, props := range search.Results {
		result[i] = ToMovieDTO(entities.NewMovie(props))
	}
	return result
}
