// Command lyricreel turns a song's lyric subtitles into a music video.
//
// The pipeline has three stages, each available as its own subcommand:
//
//	lyricreel prompts  <input.srt> <output.json> [style.txt] [base_style]
//	lyricreel images   <prompts.json> <output_dir> [provider] [api_key]
//	lyricreel assemble <prompts.json> <images_dir> <audio> [output.mp4]
//
// `lyricreel run` chains all three in a working directory. Supporting
// commands report external dependencies (`deps`), recent runs (`history`),
// and create or check the configuration file (`config init|validate`).
//
// Exit status is 0 on success, 2 when the input or configuration is invalid,
// and 1 for any other failure.
package main
