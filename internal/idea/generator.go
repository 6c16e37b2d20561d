// ABOUTME: Deterministic startup idea generator keyed by an MD5 of the raw concept.
// ABOUTME: Selects one entry per template table and renders the fixed report layout.

package idea

import (
	"crypto/md5"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// reportFormat is the fixed report layout. Arguments:
// 1 startup name (uppercased), 2 lower concept, 3 problem, 4 solution,
// 5 tech stack, 6 revenue model, 7 title concept.
const reportFormat = `🚀 **STARTUP IDEA: %[1]s**

💡 **Tagline**: Revolutionizing %[2]s through AI and community

🎯 **Problem**: %[3]s

🔧 **Solution**: %[4]s

⭐ **Unique Value**: First AI-powered %[2]s platform combining personalization with community engagement

🛠️ **Tech Stack**: %[5]s

💰 **Revenue Model**: %[6]s

📈 **3-Phase Execution Plan**:
**Phase 1 (Months 1-4)**: Build MVP, validate with 100+ users, gather feedback
**Phase 2 (Months 5-12)**: Scale platform, add premium features, mobile app launch
**Phase 3 (Months 13-24)**: Market expansion, enterprise solutions, Series A funding

🎯 **Target Market**: %[7]s enthusiasts, professionals, and businesses

🚀 **Next Steps**:
1. Survey 50+ potential users about %[2]s pain points
2. Build prototype and test core features
3. Find co-founder with %[2]s industry expertise
4. Apply to accelerators and seek seed funding
5. Launch beta with early adopters

💡 **Innovation Opportunities**:
- AI-powered %[2]s recommendations
- Community-driven content and reviews
- Mobile-first user experience
- Integration with existing %[2]s tools

Ready to disrupt the %[2]s industry! 🎉`

// Selection records the table index chosen for each template family.
type Selection struct {
	Name     int
	Problem  int
	Solution int
	Tech     int
	Revenue  int
}

// Index returns the selected index for the given table, or -1 if unknown.
func (s Selection) Index(t Table) int {
	switch t {
	case TableName:
		return s.Name
	case TableProblem:
		return s.Problem
	case TableSolution:
		return s.Solution
	case TableTech:
		return s.Tech
	case TableRevenue:
		return s.Revenue
	default:
		return -1
	}
}

// Idea is a fully resolved startup idea before rendering.
type Idea struct {
	Concept   string
	Lower     string
	Title     string
	Name      string
	Problem   string
	Solution  string
	TechStack string
	Revenue   string
	Selection Selection
}

// Select hashes the raw concept bytes and reduces the digest modulo each
// table length.
func Select(concept string) Selection {
	sum := md5.Sum([]byte(concept))
	h := new(big.Int).SetBytes(sum[:])

	mod := func(n int) int {
		return int(new(big.Int).Mod(h, big.NewInt(int64(n))).Int64())
	}

	return Selection{
		Name:     mod(len(namePatterns)),
		Problem:  mod(len(problems)),
		Solution: mod(len(solutions)),
		Tech:     mod(len(specializedTech)),
		Revenue:  mod(len(revenueModels)),
	}
}

// Normalize returns the lowercased and title-cased forms of a concept,
// both trimmed of surrounding whitespace.
func Normalize(concept string) (lower, title string) {
	return strings.TrimSpace(lowerCase(concept)), strings.TrimSpace(titleCase(concept))
}

// Build resolves every template for the concept without rendering the report.
func Build(concept string) Idea {
	lower, title := Normalize(concept)
	sel := Select(concept)
	r := strings.NewReplacer(lowerPlaceholder, lower, titlePlaceholder, title)

	return Idea{
		Concept:   concept,
		Lower:     lower,
		Title:     title,
		Name:      r.Replace(namePatterns[sel.Name]),
		Problem:   r.Replace(problems[sel.Problem]),
		Solution:  r.Replace(solutions[sel.Solution]),
		TechStack: baseTech + ", " + specializedTech[sel.Tech],
		Revenue:   r.Replace(revenueModels[sel.Revenue]),
		Selection: sel,
	}
}

// Render formats the idea using the fixed report layout.
func (i Idea) Render() string {
	return fmt.Sprintf(reportFormat, strings.ToUpper(i.Name), i.Lower, i.Problem, i.Solution, i.TechStack, i.Revenue, i.Title)
}

// Generate returns the full startup report for a concept. It is a pure
// function of the input and never fails.
func Generate(concept string) string {
	return Build(concept).Render()
}

// fullTitle lists runes whose title case is more than one rune. unicode.ToTitle
// only knows the single-rune mappings.
var fullTitle = map[rune]string{
	'ß': "Ss",
	'ŉ': "ʼN",
	'ǰ': "J̌",
	'և': "Եւ",
	'ﬀ': "Ff",
	'ﬁ': "Fi",
	'ﬂ': "Fl",
	'ﬃ': "Ffi",
	'ﬄ': "Ffl",
	'ﬅ': "St",
	'ﬆ': "St",
}

// isCased matches the Unicode Lowercase, Uppercase, and Lt properties.
// Lowercase and Uppercase include the Other_* ranges, so "ª" counts.
func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r) ||
		unicode.Is(unicode.Other_Lowercase, r) || unicode.Is(unicode.Other_Uppercase, r)
}

func isCaseIgnorable(r rune) bool {
	switch r {
	case '\'', '.', ':', '^', '`', '·', '’':
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf, unicode.Lm, unicode.Sk)
}

// lowerRune lower-cases rs[i] with the two context rules simple mapping
// misses: dotted capital I keeps its dot, and a capital sigma ending a word
// becomes final sigma.
func lowerRune(b *strings.Builder, rs []rune, i int) {
	switch r := rs[i]; {
	case r == 'İ':
		b.WriteString("i̇")
	case r == 'Σ' && finalSigma(rs, i):
		b.WriteRune('ς')
	default:
		b.WriteRune(unicode.ToLower(r))
	}
}

// finalSigma reports whether rs[i] follows a cased letter and no cased letter
// follows it, skipping case-ignorable runes both ways.
func finalSigma(rs []rune, i int) bool {
	j := i - 1
	for j >= 0 && isCaseIgnorable(rs[j]) {
		j--
	}
	if j < 0 || !isCased(rs[j]) {
		return false
	}
	k := i + 1
	for k < len(rs) && isCaseIgnorable(rs[k]) {
		k++
	}
	return k == len(rs) || !isCased(rs[k])
}

func lowerCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := range rs {
		lowerRune(&b, rs, i)
	}
	return b.String()
}

// titleCase title-cases every cased rune that follows an uncased one and
// lower-cases the rest, so "e-commerce" becomes "E-Commerce", "3d" "3D", and
// "ßtraße" "Sstraße".
func titleCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	prevCased := false
	for i, r := range rs {
		cased := isCased(r)
		switch {
		case cased && !prevCased:
			if full, ok := fullTitle[r]; ok {
				b.WriteString(full)
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
		case cased:
			lowerRune(&b, rs, i)
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}
