package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"artfolio/internal/cache"
	"artfolio/internal/models"
	"artfolio/internal/repository"

	"github.com/xuri/excelize/v2"
)

const (
	topStylesLimit  = 5
	topArtistsLimit = 10

	// unknownCity buckets posts that carry a province but no city.
	unknownCity = "unknown"
)

type StatsService struct {
	statsRepo repository.StatsRepository
}

// StatsAnalysis is the aggregate payload for a user's archive.
type StatsAnalysis struct {
	TotalPosts int64                   `json:"total_posts"`
	Genres     []repository.LabelCount `json:"genres"`
	Styles     []repository.LabelCount `json:"styles"`
	Artists    []repository.LabelCount `json:"artists"`
	Activity   []repository.DayCount   `json:"activity"`
}

// CityGroup is one city bucket inside a province.
type CityGroup struct {
	City  string               `json:"city"`
	Posts []models.PostSummary `json:"posts"`
}

// ProvinceGroup is the top level of the locations tree.
type ProvinceGroup struct {
	Province string      `json:"province"`
	Cities   []CityGroup `json:"cities"`
}

func NewStatsService(statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// Analysis is cached per user; any write to the user's posts
// invalidates the entry.
func (s *StatsService) Analysis(ctx context.Context, userID uint) (*StatsAnalysis, error) {
	var analysis StatsAnalysis
	err := cache.Aside(ctx, cache.StatsKey(userID), &analysis, cache.StatsTTL, func() error {
		total, err := s.statsRepo.TotalPosts(ctx, userID)
		if err != nil {
			return err
		}
		genres, err := s.statsRepo.GenreCounts(ctx, userID)
		if err != nil {
			return err
		}
		styles, err := s.statsRepo.TopStyles(ctx, userID, topStylesLimit)
		if err != nil {
			return err
		}
		artists, err := s.statsRepo.TopArtists(ctx, userID, topArtistsLimit)
		if err != nil {
			return err
		}
		activity, err := s.statsRepo.Activity(ctx, userID)
		if err != nil {
			return err
		}
		analysis = StatsAnalysis{
			TotalPosts: total,
			Genres:     genres,
			Styles:     styles,
			Artists:    artists,
			Activity:   activity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// Locations folds the user's located posts into a province > city tree.
// Posts with a province but no city land in the "unknown" bucket, which
// sorts after named cities.
func (s *StatsService) Locations(ctx context.Context, userID uint) ([]ProvinceGroup, error) {
	posts, err := s.statsRepo.LocationPosts(ctx, userID)
	if err != nil {
		return nil, err
	}

	tree := make(map[string]map[string][]models.PostSummary)
	for _, post := range posts {
		province := strings.TrimSpace(*post.LocationProvince)
		city := unknownCity
		if post.LocationCity != nil && strings.TrimSpace(*post.LocationCity) != "" {
			city = strings.TrimSpace(*post.LocationCity)
		}
		if tree[province] == nil {
			tree[province] = make(map[string][]models.PostSummary)
		}
		tree[province][city] = append(tree[province][city], post.Summary())
	}

	groups := make([]ProvinceGroup, 0, len(tree))
	for province, cities := range tree {
		group := ProvinceGroup{Province: province, Cities: make([]CityGroup, 0, len(cities))}
		for city, summaries := range cities {
			group.Cities = append(group.Cities, CityGroup{City: city, Posts: summaries})
		}
		sort.Slice(group.Cities, func(i, j int) bool {
			a, b := group.Cities[i].City, group.Cities[j].City
			if a == unknownCity {
				return false
			}
			if b == unknownCity {
				return true
			}
			return a < b
		})
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Province < groups[j].Province })
	return groups, nil
}

// ExportXLSX renders the analysis aggregates into a workbook with one
// sheet per aggregate.
func (s *StatsService) ExportXLSX(ctx context.Context, userID uint) ([]byte, error) {
	analysis, err := s.Analysis(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	writeLabelSheet := func(sheet string, rows []repository.LabelCount) error {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, "A1", &[]any{"Label", "Count"}); err != nil {
			return err
		}
		for i, row := range rows {
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(sheet, cell, &[]any{row.Label, row.Count}); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeLabelSheet("Genres", analysis.Genres); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeLabelSheet("Styles", analysis.Styles); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeLabelSheet("Artists", analysis.Artists); err != nil {
		return nil, models.NewInternalError(err)
	}

	if _, err := f.NewSheet("Activity"); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := f.SetSheetRow("Activity", "A1", &[]any{"Date", "Count"}); err != nil {
		return nil, models.NewInternalError(err)
	}
	for i, day := range analysis.Activity {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow("Activity", cell, &[]any{day.Date, day.Count}); err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	// The default "Sheet1" gets repurposed as a totals overview.
	if err := f.SetSheetName("Sheet1", "Overview"); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := f.SetSheetRow("Overview", "A1", &[]any{"Total posts", analysis.TotalPosts}); err != nil {
		return nil, models.NewInternalError(err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, models.NewInternalError(err)
	}
	return buf.Bytes(), nil
}
