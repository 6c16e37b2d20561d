// Package imaging converts uploaded images to grayscale PNG using ITU-R 601 luma.
package imaging
