// Package lznf is a single-file compressor built from three parts:
//   - an order-4 LZP transform (package lzp) that splits the input into a
//     stream of unpredicted literal bytes and a stream of match lengths
//   - a static Huffman coder (package huffman) that codes each stream with
//     its own tree
//   - a bit stream (package bitstream) whose pad trailer tells the decoder
//     exactly where the coded data ends
//
// The result is wrapped in a container that starts with the magic number
// "LZNF" and records the original length, its CRC-32 and the original file
// name. The whole input is held in memory; there is no streaming mode.
package lznf
