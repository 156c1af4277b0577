// Command dogwatch annotates Plex movie summaries with crowd-sourced content
// warnings from DoesTheDogDie.com.
package main
