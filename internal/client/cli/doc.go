// Package cli implements the docupload command line.
//
//	docupload upload <paths...>   upload files and directories
//	docupload history             list previous runs
//
// Every configuration field is also a persistent flag; see config.BindFlags.
package cli
