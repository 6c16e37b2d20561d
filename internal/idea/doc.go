// Package idea generates deterministic startup idea reports from a concept.
//
// # Selection
//
// Every concept is hashed once with MD5 over its raw UTF-8 bytes. The
// 128-bit digest is read as a big-endian unsigned integer and reduced modulo
// the length of each template table independently:
//
//	h := md5(concept)
//	name     = names[h mod 8]
//	problem  = problems[h mod 6]
//	solution = solutions[h mod 6]
//	tech     = baseTech + ", " + specializedTech[h mod 6]
//	revenue  = revenueModels[h mod 6]
//
// The hash sees the raw input, so "Coffee" and "coffee" can select different
// entries even though both render the same lower/title forms. The hash
// algorithm, the byte source, and the table contents in tables.go together
// form the reproducibility contract; changing any of them changes every
// report. Golden reports live in testdata/.
//
// # Rendering
//
// Reports have a fixed section order: header, tagline, problem, solution,
// unique value, tech stack, revenue model, 3-phase execution plan, target
// market, next steps, innovation opportunities, closing line.
//
// # Usage
//
//	report := idea.Generate("fitness")
//	sel := idea.Select("fitness") // which table entries were chosen
package idea
