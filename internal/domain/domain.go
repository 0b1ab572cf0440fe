package domain

import (
	"github.com/yungbote/searchlift-backend/internal/domain/account"
	"github.com/yungbote/searchlift-backend/internal/domain/keywords"
)

type User = account.User
type UserToken = account.UserToken
type BusinessProfile = account.BusinessProfile

type Seed = keywords.Seed
type SeedCategory = keywords.SeedCategory
type KeywordSource = keywords.KeywordSource
type KeywordDifficulty = keywords.KeywordDifficulty
type KeywordIntent = keywords.KeywordIntent
type CandidateKeyword = keywords.CandidateKeyword
type ProcessedKeyword = keywords.ProcessedKeyword
type ValidationVerdict = keywords.ValidationVerdict
type KeywordUniverse = keywords.KeywordUniverse
type KeywordUniverseItem = keywords.KeywordUniverseItem

// AllCategories lists the seed categories in pipeline order.
func AllCategories() []SeedCategory { return keywords.AllCategories() }

const (
	CategoryTransactional = keywords.CategoryTransactional
	CategoryInformational = keywords.CategoryInformational
	CategoryComparison    = keywords.CategoryComparison
	CategoryBranded       = keywords.CategoryBranded
	CategoryLongTail      = keywords.CategoryLongTail

	SourceVerified  = keywords.SourceVerified
	SourceGenerated = keywords.SourceGenerated
	SourceCustom    = keywords.SourceCustom

	DifficultyLow    = keywords.DifficultyLow
	DifficultyMedium = keywords.DifficultyMedium
	DifficultyHigh   = keywords.DifficultyHigh

	IntentTransactional = keywords.IntentTransactional
	IntentInformational = keywords.IntentInformational
)
