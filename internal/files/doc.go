// Package files locates input exports on disk. The batch commands use it
// to pick the most recent stock export or leadtime workbook when no
// explicit path is given.
package files
