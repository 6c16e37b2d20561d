// ABOUTME: Fixed template tables for startup idea generation.
// ABOUTME: Table contents and order are part of the reproducibility contract.

package idea

// Placeholders substituted into templates at render time.
const (
	lowerPlaceholder = "{lower}"
	titlePlaceholder = "{title}"
)

// baseTech prefixes every tech stack line.
const baseTech = "React/Next.js, Python/FastAPI, PostgreSQL, Redis"

var namePatterns = [...]string{
	"{title}AI",
	"{title}Hub",
	"{title}Connect",
	"Smart{title}",
	"{title}Pro",
	"{title}Sync",
	"{title}Flow",
	"{title}Verse",
}

var problems = [...]string{
	"People struggle to find quality {lower} products and services",
	"The {lower} industry lacks personalization and modern technology",
	"Consumers can't easily discover and connect with {lower} communities",
	"Traditional {lower} solutions are fragmented and inefficient",
	"There's no centralized platform for {lower} enthusiasts to collaborate",
	"Quality {lower} experiences are expensive and hard to access",
}

var solutions = [...]string{
	"AI-powered platform that personalizes {lower} recommendations using machine learning",
	"Community marketplace connecting {lower} enthusiasts with experts and products",
	"Smart {lower} management system with real-time analytics and optimization",
	"Social platform for {lower} discovery with user-generated content and reviews",
	"On-demand {lower} services platform with quality verification",
	"Subscription-based {lower} curation service with expert recommendations",
}

var specializedTech = [...]string{
	"AI/ML, Computer Vision, IoT sensors",
	"Blockchain, Smart Contracts, Mobile SDK",
	"Real-time messaging, Video streaming, AR/VR",
	"Payment processing, Geolocation, Push notifications",
	"Analytics, Recommendation engine, Cloud infrastructure",
	"API integrations, Microservices, Docker/Kubernetes",
}

var revenueModels = [...]string{
	"Freemium subscriptions, {lower} marketplace commissions, premium features",
	"Subscription boxes, affiliate partnerships, enterprise solutions",
	"Transaction fees, advertising revenue, premium memberships",
	"Service commissions, certification programs, B2B licensing",
	"Monthly subscriptions, pay-per-use services, corporate packages",
	"Marketplace fees, premium listings, consultation services",
}

// Table identifies one of the template families.
type Table string

const (
	TableName     Table = "name"
	TableProblem  Table = "problem"
	TableSolution Table = "solution"
	TableTech     Table = "tech"
	TableRevenue  Table = "revenue"
)

// Tables lists the template families in selection order.
var Tables = []Table{TableName, TableProblem, TableSolution, TableTech, TableRevenue}

// TableLen returns the number of entries in the given table, or 0 if unknown.
func TableLen(t Table) int {
	switch t {
	case TableName:
		return len(namePatterns)
	case TableProblem:
		return len(problems)
	case TableSolution:
		return len(solutions)
	case TableTech:
		return len(specializedTech)
	case TableRevenue:
		return len(revenueModels)
	default:
		return 0
	}
}
