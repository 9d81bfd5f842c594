// Package formats decodes the pixel-art formats found in Ragnarok Online data:
// SPR sprites (palette or true color, optionally RLE), the ACT animations
// that lay them out, and TGA textures.
package formats
