// Package view defines the presentable output tree shared by the rest of
// bastion. It deliberately stops at node construction: HTML rendering,
// diffing and styling are the host application's concern.
package view
