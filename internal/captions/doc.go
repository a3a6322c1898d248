// Package captions computes the render schedule for a captioned story video.
//
// Given a timestamped transcript, the story title and the render settings it
// produces a Timeline: how long the intro title card stays on screen, which
// crop window of the background footage is used, and the ordered caption
// intervals laid over the video.
//
// # Pipeline
//
//  1. LocateAnchor finds the transcript token where the spoken title ends by
//     matching the last title word against normalized token text.
//  2. TitleCardFor turns the start of the following token into the title card
//     duration.
//  3. ScheduleCaptions converts the remaining tokens into frame intervals,
//     capping each caption at one second and dropping degenerate intervals.
//  4. SelectWindow derives a crop window from a stable hash of the title, so
//     re-rendering the same story always reuses the same footage.
//  5. Assemble combines the above into a Result with a Ready, Fallback or
//     Failed status.
//
// Every function here is pure. Loading the transcript and deciding when to
// recompute belong to the transcript and recompute packages.
package captions
