// package theme derives the app colour scheme from a team logo.
//
// The dominant logo colour becomes the brand colour; darker and white-tinted
// variants are computed from it for hover states and backgrounds.
package theme
