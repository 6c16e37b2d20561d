// Package extract converts fetched page bytes into text an agent can read.
//
// HTML pages are stripped of boilerplate (scripts, navigation, footers) and
// narrowed to their main content. Every paragraph-like block credits its
// parent and grandparent with points for length and commas; class and id
// names such as "content" or "related" move a container up or down, and link
// density damps the total. The best container, plus siblings that score
// nearly as well, is rendered as markdown with ATX headings. Pages with no
// scoring block fall back to the first article, main, or body. Other content types are returned verbatim with a note
// explaining why. Extraction is pure and performs no I/O.
package extract
