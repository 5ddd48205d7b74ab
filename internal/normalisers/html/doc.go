// Package html provides a Normaliser implementation for HTML pages.
// It parses the page with goquery, drops scripts, styles and page chrome
// (navigation, header, footer), and keeps the readable text with one line
// per block element.
package html
