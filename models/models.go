package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - User, RefreshToken from user.go
// - Business from business.go
// - Analysis, Review, AspectResult from analysis.go
// - ComparisonReport from comparison.go
// - SummaryResult, CategoryScores, ComparisonResult, ComparedProduct
//   (serialized payloads, not tables) from summary.go

// Database schema overview:
// 1. users - Managed by cookie-based authentication
// 2. businesses - One row per (source URL, owner) pair
// 3. analyses - Records each analysis run over a business's reviews
// 4. reviews - The classified reviews written by one analysis run
// 5. aspect_results - At most one detected aspect per review
// 6. comparison_reports - Cached comparison payloads keyed by the
//    canonical (sorted, unique) analysis id set
